package order

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo is the authoritative lifecycle table. Operator UIs can
// request arbitrary targets, so every mutation path must consult it.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false // terminal states
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

type PaymentMethod string

const (
	MethodKnet       PaymentMethod = "knet"
	MethodVisa       PaymentMethod = "visa"
	MethodMastercard PaymentMethod = "mastercard"
	MethodApplePay   PaymentMethod = "applepay"
	MethodCash       PaymentMethod = "cash"
	MethodCard       PaymentMethod = "card"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodKnet, MethodVisa, MethodMastercard, MethodApplePay, MethodCash, MethodCard:
		return true
	default:
		return false
	}
}
