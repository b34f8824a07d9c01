package home

import (
	"net/http"

	"github.com/gamestore/store-admin/app/api"
)

func HandleIndex(w http.ResponseWriter, _ *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"message": "Uhulll!!!!!"})
}
