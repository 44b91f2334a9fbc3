package frontier

import "context"

// Weight is one fund's portfolio weight. Values are not normalised.
type Weight struct {
	Fund   string  `json:"fund"`
	Weight float64 `json:"weight"`
}

// Result is the canonical efficient-frontier reply.
type Result struct {
	Weights []Weight `json:"weights"`
	// RawText is only set when the weights came from the plaintext fallback.
	RawText *string `json:"rawText,omitempty"`
}

// File is the payload submitted to the backend.
type File struct {
	Name string
	Data []byte
}

// Client submits a returns spreadsheet to the analysis backend.
type Client interface {
	Submit(ctx context.Context, f File) (Result, error)
}
