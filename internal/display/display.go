package display

import "context"

// Display is the banner surface driven by the controller.
type Display interface {
	SetText(ctx context.Context, text string)
	SetColor(ctx context.Context, color Color)
	// SetBlinking starts or stops the alert background blink.
	SetBlinking(ctx context.Context, on bool)
	Show(ctx context.Context)
	Hide(ctx context.Context)
}

// Snapshot is a point-in-time copy of the banner state.
type Snapshot struct {
	Visible  bool   `json:"visible"`
	Text     string `json:"text"`
	Color    string `json:"color"`
	Blinking bool   `json:"blinking"`
}
