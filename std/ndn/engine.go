package ndn

import "time"

// Timer is the time source used by engines.
type Timer interface {
	// Now returns current time.
	Now() time.Time
	// Sleep sleeps for the duration.
	Sleep(time.Duration)
	// Schedule schedules the callback function to be called after the duration,
	// and returns a cancel callback to cancel the scheduled function.
	Schedule(time.Duration, func()) func() error
	// Nonce generates a random nonce.
	Nonce() []byte
}

// InterestResult represents the result of Interest expression.
type InterestResult int

const (
	// Empty result. Not used by the engine.
	InterestResultNone InterestResult = iota
	// Data is fetched
	InterestResultData
	// Timeout
	InterestResultTimeout
	// Cancelled by the application or engine shutdown
	InterestCancelled
	// Other error happens during handling the fetched data
	InterestResultError
)

func (r InterestResult) String() string {
	switch r {
	case InterestResultNone:
		return "None"
	case InterestResultData:
		return "Data"
	case InterestResultTimeout:
		return "Timeout"
	case InterestCancelled:
		return "Cancelled"
	case InterestResultError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ExpressCallbackFunc represents the callback function for Interest expression.
type ExpressCallbackFunc func(args ExpressCallbackArgs)

// ExpressCallbackArgs represents the arguments passed to the ExpressCallbackFunc.
type ExpressCallbackArgs struct {
	// Result of the Interest expression.
	// If the result is not InterestResultData, Data is nil.
	Result InterestResult
	// Data fetched.
	Data Data
	// Error, if the result is InterestResultError.
	Error error
}

// InterestHandler represents the callback function for an Interest handler.
// It should create a goroutine if Data is not ready to send.
type InterestHandler func(args InterestHandlerArgs)

// InterestHandlerArgs is the information passed to the InterestHandler
type InterestHandlerArgs struct {
	// Incoming Interest
	Interest Interest
	// Function to reply to the Interest
	Reply ReplyFunc
	// Deadline of the Interest
	Deadline time.Time
}

// ReplyFunc represents the callback function to reply for an Interest.
type ReplyFunc func(data Data) error
