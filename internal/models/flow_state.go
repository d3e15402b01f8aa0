package models

// FlowState is the per-user conversation and workflow state kept in the
// state repository. Draft and Payment are embedded so a user resumes
// exactly where they left off after a restart.
type FlowState struct {
	UserID      int64             `json:"user_id"`
	CurrentStep string            `json:"current_step"`
	Draft       ReservationDraft  `json:"draft"`
	Payment     *PaymentSession   `json:"payment,omitempty"`
	Selected    *Restaurant       `json:"selected,omitempty"`
	TempData    map[string]string `json:"temp_data,omitempty"`
}

func (s *FlowState) Get(key string) string {
	if s.TempData == nil {
		return ""
	}
	return s.TempData[key]
}

func (s *FlowState) Set(key, value string) {
	if s.TempData == nil {
		s.TempData = make(map[string]string)
	}
	s.TempData[key] = value
}
