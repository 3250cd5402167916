package models

import (
	"time"
)

// SessionInfo describes a redis-backed login token.
type SessionInfo struct {
	Token       string    `json:"token"`
	Principal   Principal `json:"principal"`
	CreatedTime time.Time `json:"created_dttm_utc"`
}
