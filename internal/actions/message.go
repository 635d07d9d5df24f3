package actions

import "context"

// MessageInput is the argument object of the message logger action.
type MessageInput struct {
	Message string `json:"message"`
}

// MessageResult acknowledges a logged message.
type MessageResult struct {
	Logged bool `json:"logged"`
}

// LogMessage writes the caller's message to the operator log.
func (s *Service) LogMessage(ctx context.Context, in MessageInput) (MessageResult, error) {
	s.logger.InfoContext(ctx, "Logging message: "+in.Message)
	return MessageResult{Logged: true}, nil
}
