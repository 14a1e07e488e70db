package dto

// 提出換班申請（只能由目前被指派者發起）
type SwapRequestDto struct {
	RequestedWith string `json:"requestedWith" binding:"required"`
	Reason        string `json:"reason,omitempty"`
}
