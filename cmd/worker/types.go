package main

import "time"

// RunMessage is the payload put on the report queue by the scheduler (or by hand).
type RunMessage struct {
	RunKey      string    `json:"run_key"`
	Period      string    `json:"period"`
	RequestedAt time.Time `json:"requested_at"` // the report's "now"; zero means receive time
}
