// mockbroker is a local stand-in for the shipping broker API. Point
// SHIPPO_API_BASE at it to exercise label, pickup, and tracking flows
// without touching the real service.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", ":9090", "Listen address")
	txStatus := flag.String("transaction-status", "SUCCESS", "Status returned for new transactions (SUCCESS, ERROR)")
	pickupStatus := flag.String("pickup-status", "CONFIRMED", "Status returned for pickups (CONFIRMED, PENDING)")
	trackingStatus := flag.String("tracking-status", "DELIVERED", "Tracking status returned on transaction lookup")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := "tx_" + randomHex(8)
		writeJSON(w, map[string]any{
			"object_id":             id,
			"status":                *txStatus,
			"label_url":             "http://localhost" + *addr + "/labels/" + id + ".pdf",
			"tracking_number":       "9400100000000000000000",
			"tracking_url_provider": "https://tools.usps.com/go/TrackConfirmAction?tLabels=9400100000000000000000",
		})
	})

	mux.HandleFunc("GET /transactions/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/transactions/")
		writeJSON(w, map[string]any{
			"object_id":       id,
			"status":          "SUCCESS",
			"tracking_status": *trackingStatus,
		})
	})

	mux.HandleFunc("POST /pickups/", func(w http.ResponseWriter, r *http.Request) {
		end := time.Now().AddDate(0, 0, 3)
		writeJSON(w, map[string]any{
			"confirmation_code":  "WTC" + randomHex(6),
			"confirmed_end_time": end.Format(time.RFC3339),
			"status":             *pickupStatus,
		})
	})

	mux.HandleFunc("GET /labels/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4 mock label")
	})

	log.Printf("mock broker listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "deadbeef"
	}
	return hex.EncodeToString(b)
}
