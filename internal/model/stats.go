package model

// Phase names one search+fetch+extract+merge sweep over a mailbox.
type Phase string

const (
	PhaseConfirmation Phase = "confirmation"
	PhaseCancellation Phase = "cancellation"
	PhaseShipment     Phase = "shipment"
	PhaseXbox         Phase = "xbox"
)

// PhaseStatistics holds the counters for a single run. Every processed
// message is counted as exactly one of Successful or Failed.
type PhaseStatistics struct {
	Processed  int `json:"processed"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`

	Confirmations        int `json:"confirmations"`
	Cancellations        int `json:"cancellations"`
	Shipped              int `json:"shipped"`
	TrackingNumbersFound int `json:"tracking_numbers_found"`
	Codes                int `json:"codes"`

	// FetchFailures counts messages dropped after exhausting retries.
	FetchFailures int `json:"fetch_failures"`

	// AbortedPhases lists phases whose select or search failed.
	AbortedPhases []Phase `json:"aborted_phases,omitempty"`
}

// Record counts one processed message.
func (s *PhaseStatistics) Record(success bool) {
	s.Processed++
	if success {
		s.Successful++
	} else {
		s.Failed++
	}
}

// Add folds other into s.
func (s *PhaseStatistics) Add(other PhaseStatistics) {
	s.Processed += other.Processed
	s.Successful += other.Successful
	s.Failed += other.Failed
	s.Confirmations += other.Confirmations
	s.Cancellations += other.Cancellations
	s.Shipped += other.Shipped
	s.TrackingNumbersFound += other.TrackingNumbersFound
	s.Codes += other.Codes
	s.FetchFailures += other.FetchFailures
	s.AbortedPhases = append(s.AbortedPhases, other.AbortedPhases...)
}
