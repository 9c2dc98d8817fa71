// Package chat keeps the message history of a single conversation with an
// OpenAI-compatible chat-completion API.
//
// Invariants:
//   - At most one system message exists and it is always the first message.
//   - A configured intro is inserted as an assistant message right before the
//     first user message, once per session.
//   - A failed completion keeps the user turn and adds no assistant turn.
//   - Conversation returns a copy; callers cannot mutate session state.
//
// Usage:
//
//	sess, err := chat.New(chat.Config{APIKey: key, Intro: "Hi!"}, completer)
//	if err != nil {
//		return err
//	}
//	reply, err := sess.Send(ctx, "2+2?")
package chat
