package framework

// Message is the unit flowing from subscriber to processor.
type Message struct {
	ID       string
	Queue    string
	Data     []byte
	Attempts int
	Extra    map[string]interface{}
}
