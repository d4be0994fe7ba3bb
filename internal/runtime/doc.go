// Package runtime holds the conversation state machine.
//
// A Machine is stateless: every call receives the current domain.State and
// returns the next one. When a flow needs the scheduling service it returns a
// domain.RemoteCall instead of performing it; the host parks the conversation
// in domain.AwaitingRemote, runs the call with Execute and feeds the result
// back through Resume.
package runtime
