// Package chat implements the interactive streaming chat session: a
// read-eval loop that creates or resumes a conversation session, sends
// one turn at a time to the remote agent, renders streamed response
// fragments incrementally, and persists the conversation to the agent's
// long-term memory on exit.
//
// The package has three components mirroring the session lifecycle:
//
//   - Manager owns session identity (create-or-resume at start, persist
//     exactly once at end).
//   - Executor sends one user message and consumes the streamed fragment
//     sequence for that turn.
//   - Loop drives the prompt/execute cycle and routes exit commands and
//     interrupts into the single teardown path.
//
// The remote endpoint is abstracted behind Provider so tests substitute
// an in-memory fake.
package chat
