package main

import (
	"net/http"
	"time"
)

// operationsAPITimeout bounds every outbound call to the operations API
// and the insight endpoint. Schedule sweeps touch dozens of projects in
// sequence, so a hung request must not stall the whole run.
const operationsAPITimeout = 45 * time.Second

var operationsHTTPClient = &http.Client{
	Timeout: operationsAPITimeout,
}
