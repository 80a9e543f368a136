// Package hubserver provides IPC between a running hub (the process that
// owns the terminal) and external producer processes that want to ask the
// user questions through it.
package hubserver

// SocketEnvVar is the environment variable naming the hub's socket path.
const SocketEnvVar = "ASKHUB_SOCK"

// Response statuses.
const (
	// StatusAnswered means the user answered and Answer is set.
	StatusAnswered = "answered"
	// StatusAborted means the question was cancelled, aborted, or refused
	// because the hub is shutting down.
	StatusAborted = "aborted"
	// StatusError means the request itself was malformed.
	StatusError = "error"
)

// Request asks one question. Mode is the wire name of a question mode:
// yesno, text, credentials, filename, download, or alert.
type Request struct {
	Mode  string `json:"mode"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
	// Default pre-fills the prompt: "yes"/"no" for yesno, initial field
	// contents for the text-like modes.
	Default string `json:"default,omitempty"`
	// Blocking makes the question preempt whatever is displayed instead
	// of queueing behind it. The reply always waits for the outcome
	// either way.
	Blocking bool `json:"blocking"`
}

// Response reports the outcome of one question.
type Response struct {
	Status string  `json:"status"`
	Answer *Answer `json:"answer,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Answer carries the mode-dependent payload.
type Answer struct {
	// Accepted is set for yesno questions.
	Accepted *bool `json:"accepted,omitempty"`
	// Value is set for text and filename questions, and for download
	// questions answered with a save path.
	Value string `json:"value,omitempty"`
	// User and Password are set for credentials questions.
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	// OpenWith is set for download questions answered with an open-with
	// command; the empty string means the system default application.
	OpenWith *string `json:"openWith,omitempty"`
}
