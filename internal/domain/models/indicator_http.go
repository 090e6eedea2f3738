package models

// IndicatorRequest is the query accepted by GET /api/indicator.
type IndicatorRequest struct {
	Refresh bool   `query:"refresh" json:"refresh"`
	Format  string `query:"format" json:"format" default:"json" validate:"oneof=json text"`
}
