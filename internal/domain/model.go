package domain

// Engine names an NLP component loaded at startup.
type Engine string

// Engines known to the model registry.
const (
	EngineSentiment Engine = "sentiment"
	EngineEntities  Engine = "entities"
	EngineSegmenter Engine = "segmenter"
	EngineEmbedding Engine = "embedding"
)

// ModelState is the load result of an engine.
type ModelState string

// Model states.
const (
	StateReady       ModelState = "ready"
	StateUnavailable ModelState = "unavailable"
)

// ModelStatus is the state of one engine plus the load failure, if any.
type ModelStatus struct {
	Engine Engine     `json:"engine"`
	State  ModelState `json:"state"`
	Reason string     `json:"reason,omitempty"`
}

// Ready reports whether the engine loaded.
func (s ModelStatus) Ready() bool { return s.State == StateReady }
