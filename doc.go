/*
Package medibook is a conversational front desk for booking, rescheduling and
cancelling appointments.

A conversation is a deterministic state machine. Each user turn is classified,
routed to the booking, reschedule or cancel flow, and answered with the next
prompt. Calls to the scheduling service are the only side effects; while one is
in flight the conversation sits in an explicit "awaiting remote" state and
refuses further turns with domain.ErrBusy.

# Usage

	client := http.NewClient("http://localhost:3001")
	engine := medibook.New(client, medibook.WithLogger(logger))

	fmt.Println(engine.Greeting())
	reply, err := engine.Turn(ctx, "book a physical exam")
	if err != nil {
		return err
	}
	fmt.Println(reply.Message, reply.Step)

One Engine holds one conversation. Hosts that serve several users create one
Engine per user.
*/
package medibook
