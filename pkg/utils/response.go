package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

type okEnvelope struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

type failEnvelope struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK writes the success envelope {ok:true, data}.
func RespondOK(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, okEnvelope{OK: true, Data: data})
}

// RespondFail writes the failure envelope {ok:false, code, message}.
func RespondFail(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, failEnvelope{OK: false, Code: code, Message: message})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
