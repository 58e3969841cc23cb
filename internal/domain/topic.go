package domain

// Topic is a cluster of sentences summarized by keywords ranked by relevance.
// IDs are assigned by descending cluster size and are never negative.
type Topic struct {
	ID       int      `json:"topic_id"`
	Keywords []string `json:"keywords"`
	Size     int      `json:"size"`
}

// OutlierTopicID is the clustering engine's bucket for unassigned sentences.
const OutlierTopicID = -1

// TopicOutcome tells how a topic analysis ended.
type TopicOutcome string

// Topic outcomes.
const (
	TopicOK                 TopicOutcome = "ok"
	TopicInsufficientSignal TopicOutcome = "insufficient_signal"
	TopicEngineFailure      TopicOutcome = "engine_failure"
	TopicModelUnavailable   TopicOutcome = "model_unavailable"
)

// TopicResult is the outcome of a topic analysis. Only TopicOK carries topics.
type TopicResult struct {
	Outcome TopicOutcome
	Reason  string
	topics  []Topic
}

// TopicsFound wraps a successful clustering.
func TopicsFound(topics []Topic) TopicResult {
	return TopicResult{Outcome: TopicOK, topics: topics}
}

// InsufficientSignal reports input too small to cluster.
func InsufficientSignal(reason string) TopicResult {
	return TopicResult{Outcome: TopicInsufficientSignal, Reason: reason}
}

// EngineFailure reports a caught clustering failure.
func EngineFailure(err error) TopicResult {
	return TopicResult{Outcome: TopicEngineFailure, Reason: err.Error()}
}

// ModelUnavailable reports that the engine could not be loaded.
func ModelUnavailable(reason string) TopicResult {
	return TopicResult{Outcome: TopicModelUnavailable, Reason: reason}
}

// Topics returns the clustered topics, or nil for every outcome but TopicOK.
func (r TopicResult) Topics() []Topic {
	if r.Outcome != TopicOK {
		return nil
	}
	return r.topics
}

// Err maps the outcome to a sentinel error, nil for TopicOK.
func (r TopicResult) Err() error {
	switch r.Outcome {
	case TopicOK:
		return nil
	case TopicInsufficientSignal:
		return ErrInsufficientSignal
	case TopicModelUnavailable:
		return ErrModelUnavailable
	default:
		return ErrEngineFailure
	}
}
