package checkout

// State tracks the settlement sequencer. The settle action is disabled for
// every state other than Idle, which is the single-flight guard.
type State int

const (
	// StateIdle accepts a new settlement attempt.
	StateIdle State = iota
	// StateValidating runs the entry guards; failures never reach the network.
	StateValidating
	// StateCreatingGatewayOrder opens the gateway-side order.
	StateCreatingGatewayOrder
	// StateAwaitingGatewayResult blocks on the hosted checkout outcome.
	StateAwaitingGatewayResult
	// StateCreatingOrder submits the backend order payload.
	StateCreatingOrder
	// StateClearingCart empties the persisted cart after order creation.
	StateClearingCart
	// StateDone is reached once per successful settlement.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCreatingGatewayOrder:
		return "creating_gateway_order"
	case StateAwaitingGatewayResult:
		return "awaiting_gateway_result"
	case StateCreatingOrder:
		return "creating_order"
	case StateClearingCart:
		return "clearing_cart"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
