package dto

// UpdateSODSettingsRequest body para PUT /api/settings/sod.
// Campos nil conservan el valor actual.
type UpdateSODSettingsRequest struct {
	EnforceTransferSOD  *bool `json:"enforce_transfer_sod,omitempty"`
	CreatorCanCheck     *bool `json:"creator_can_check,omitempty"`
	CreatorCanSend      *bool `json:"creator_can_send,omitempty"`
	CheckerCanSend      *bool `json:"checker_can_send,omitempty"`
	CreatorCanReceive   *bool `json:"creator_can_receive,omitempty"`
	SenderCanComplete   *bool `json:"sender_can_complete,omitempty"`
	CreatorCanComplete  *bool `json:"creator_can_complete,omitempty"`
	ReceiverCanComplete *bool `json:"receiver_can_complete,omitempty"`
}
