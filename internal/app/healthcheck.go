package app

import (
	"net/http"
)

type healthcheckResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthcheckResponse{
		Status:      "UP",
		Version:     version,
		Environment: app.config.Env,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
