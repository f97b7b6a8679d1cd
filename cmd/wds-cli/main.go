package main

import (
	"econdata-backend/cmd/wds-cli/cmd"
	"econdata-backend/lib/serviceutil"
	"econdata-backend/lib/wds"
	"os"
)

func main() {
	baseUrl, ok := os.LookupEnv("WDS_BASE_URL")
	if !ok {
		baseUrl = wds.DefaultBaseUrl
	}
	cmd.BaseUrl = baseUrl

	cmd.ExecuteContext(serviceutil.SignalContext())
}
