package main

import (
	"github.com/vitalvas/iris/mux"
	"github.com/vitalvas/iris/muxhandlers"
	"github.com/vitalvas/iris/pipeline"
	"github.com/vitalvas/iris/server"
)

type echoRequest struct {
	Message string `json:"message" validate:"required,max=1024"`
}

type echoResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// appInfo is bound in the root scope and read by the info route.
type appInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// testModule is mounted under "/:test".
type testModule struct{}

func (testModule) Build(r *mux.Router) {
	r.AddRoute("/", mux.MethodGet, pipeline.Controller0(func() pipeline.Text {
		return "Hello Router!"
	}))
	r.AddRoute("/test", mux.MethodGet, pipeline.Controller0(func() pipeline.Text {
		return "Hello Test!"
	}))
}

// buildApp registers the demo routes on srv.
func buildApp(srv *server.Server) error {
	jsonBody, err := muxhandlers.JSONBodyMiddleware[echoRequest](muxhandlers.JSONBodyConfig{
		DisallowUnknownFields: true,
		Validate:              true,
	})
	if err != nil {
		return err
	}

	requestID := muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
		GenerateFunc:  muxhandlers.GenerateUUIDv7,
		TrustIncoming: true,
	})

	srv.AddData(appInfo{Name: "irisd", Version: version})

	srv.AddRoute("/", mux.MethodGet, pipeline.Controller0(func() pipeline.Text {
		return "Hello World!"
	}))
	srv.AddModule("/:test", testModule{})

	srv.AddRoute("/api/info", mux.MethodGet, pipeline.Controller1(
		pipeline.Data[appInfo](),
		func(info appInfo) appInfo { return info },
	))
	srv.AddRoute("/api/echo", mux.MethodPost, pipeline.Controller2(
		pipeline.Data[echoRequest](),
		pipeline.Data[muxhandlers.RequestID](),
		func(req echoRequest, id muxhandlers.RequestID) echoResponse {
			return echoResponse{Message: req.Message, RequestID: string(id)}
		},
	), requestID, jsonBody)

	return nil
}
