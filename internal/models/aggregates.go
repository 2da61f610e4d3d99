package models

import "time"

// ClientAggregate is the running byte accounting for one observed client.
// Created on the client's first qualifying record, updated thereafter, never
// deleted except by a bulk reset.
type ClientAggregate struct {
	ClientID     string    `json:"clientId"`
	HitBytes     int64     `json:"hitBytes"`
	MissBytes    int64     `json:"missBytes"`
	LastSeen     time.Time `json:"lastSeen"`
	SessionCount int64     `json:"sessionCount"`
}

// ServiceAggregate is the running byte accounting for one service
// (steam, epic, ...). Same lifecycle as ClientAggregate.
type ServiceAggregate struct {
	Service      string    `json:"service"`
	HitBytes     int64     `json:"hitBytes"`
	MissBytes    int64     `json:"missBytes"`
	LastActivity time.Time `json:"lastActivity"`
	SessionCount int64     `json:"sessionCount"`
}
