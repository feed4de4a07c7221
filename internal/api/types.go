package api

// KnownKinds is the canonical reaction vocabulary the server ships today.
// The engine treats kinds as opaque strings, so a server-side addition shows
// up in counts without a client release; this list only drives UI bindings.
var KnownKinds = []string{"like", "love", "laugh", "wow", "sad"}

// ItemReactions mirrors the reaction state the API returns for one item.
type ItemReactions struct {
	UserReaction string         `json:"user_reaction"`
	Reactions    map[string]int `json:"reactions"`
}

// UserReaction is one entry of the bulk user-reactions listing.
type UserReaction struct {
	ItemID       string `json:"item_id"`
	ReactionType string `json:"reaction_type"`
}

type writeReactionRequest struct {
	ReactionType string `json:"reaction_type"`
}
