package models

type Intent string

const (
	IntentListCategories Intent = "get_categories"
	IntentRecommend      Intent = "recommend"
	IntentSearch         Intent = "search"
	IntentChat           Intent = "chat"
	IntentUnknown        Intent = "unknown"
)

// Decision is the router's classification of a single customer message.
// Target carries the normalized search/recommend keyword; Reply carries the
// ready-to-return answer for pure chitchat. Off-grammar router output maps to
// IntentUnknown, never to an error.
type Decision struct {
	Intent Intent
	Target string
	Reply  string
}
