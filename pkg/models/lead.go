package models

type LeadRequest struct {
	LeadName  *string `json:"leadName" db:"lead_name"`
	LeadEmail *string `json:"leadEmail" db:"lead_email"`
}

type Lead struct {
	ID        string `json:"id" db:"id"`
	LeadName  string `json:"leadName" db:"lead_name"`
	LeadEmail string `json:"leadEmail" db:"lead_email"`
}
