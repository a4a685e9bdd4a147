package appointment

// Trigger names what caused a status change.
type Trigger string

const (
	TriggerCreate          Trigger = "create"
	TriggerUpdate          Trigger = "update"
	TriggerPaymentAccepted Trigger = "payment_accepted"
	TriggerPaymentRejected Trigger = "payment_rejected"
)

// Effect is a billing side effect that must run in the same transaction
// as the status change.
type Effect string

const (
	EffectCreateRendering      Effect = "create_rendering"
	EffectDropPendingRendering Effect = "drop_pending_rendering"
)

type transition struct {
	triggers []Trigger
	from     func(Status) bool
	to       func(Status) bool
	effects  []Effect
}

func anyStatus(Status) bool { return true }

func billable(s Status) bool { return s.IsBillable() }

func cancelled(s Status) bool { return s == StatusCancelled }

// Every status may move to any other one; the table only declares which
// moves carry billing effects. Rendering creation is idempotent so it fires
// on every entry into a billable status, repeated ones included.
var transitions = []transition{
	{
		triggers: []Trigger{TriggerCreate, TriggerUpdate, TriggerPaymentAccepted},
		from:     anyStatus,
		to:       billable,
		effects:  []Effect{EffectCreateRendering},
	},
	{
		triggers: []Trigger{TriggerPaymentRejected},
		from:     anyStatus,
		to:       cancelled,
		effects:  []Effect{EffectDropPendingRendering},
	},
}

// Effects returns the side effects of moving from -> to because of trigger.
// from is empty for a new appointment.
func Effects(from, to Status, trigger Trigger) []Effect {
	var out []Effect
	for _, t := range transitions {
		if !hasTrigger(t.triggers, trigger) || !t.from(from) || !t.to(to) {
			continue
		}
		out = append(out, t.effects...)
	}
	return out
}

func hasTrigger(list []Trigger, t Trigger) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// PaymentOutcome maps a payment decision to the resulting status and trigger.
func PaymentOutcome(confirm bool) (Status, Trigger) {
	if confirm {
		return StatusConfirmed, TriggerPaymentAccepted
	}
	return StatusCancelled, TriggerPaymentRejected
}
