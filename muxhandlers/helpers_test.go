package muxhandlers

import (
	"github.com/vitalvas/iris/httpwire"
	"github.com/vitalvas/iris/pipeline"
)

// runMiddleware runs mw in front of a controller answering "ok" and returns
// the response together with the state the controller saw. The state is nil
// when the middleware short-circuited.
func runMiddleware(mw pipeline.Middleware, req *httpwire.Request) (*httpwire.Response, *pipeline.State) {
	var captured *pipeline.State

	p := pipeline.New(pipeline.ControllerFunc(func(s *pipeline.State) any {
		captured = s
		return pipeline.Text("ok")
	}), mw)

	return p.Handle(req, nil), captured
}

func jsonRequest(body string) *httpwire.Request {
	req := httpwire.NewRequest("POST", "/")
	req.SetHeader("Content-Type", "application/json")
	req.Body = []byte(body)
	return req
}
