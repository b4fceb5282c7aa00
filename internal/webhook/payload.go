package webhook

// SkillPayload is the chat-platform webhook request (Kakao i Open Builder
// skill shape). Only the fields the bot needs are decoded.
type SkillPayload struct {
	UserRequest struct {
		Utterance string `json:"utterance"`
		User      struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"userRequest"`
}

// SkillResponse is the webhook reply envelope.
type SkillResponse struct {
	Version  string   `json:"version"`
	Template Template `json:"template"`
}

// Template holds the response outputs.
type Template struct {
	Outputs []Output `json:"outputs"`
}

// Output is one response element; only simpleText is produced.
type Output struct {
	SimpleText SimpleText `json:"simpleText"`
}

// SimpleText is a plain-text bubble.
type SimpleText struct {
	Text string `json:"text"`
}

// NewSimpleTextResponse wraps text in the response envelope.
func NewSimpleTextResponse(text string) SkillResponse {
	return SkillResponse{
		Version: "2.0",
		Template: Template{
			Outputs: []Output{{SimpleText: SimpleText{Text: text}}},
		},
	}
}
