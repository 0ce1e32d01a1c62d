// Package pipeline runs the middleware chain and terminal controller that
// answer a routed request.
//
// A Pipeline owns an ordered list of Middleware and one Controller. For each
// request it builds a State holding the request, the data inherited from the
// route scope, and a fresh command queue. Middleware run in registration
// order; each may short-circuit by returning a response. After every
// middleware step the queued commands are drained against the State, so data
// a middleware adds becomes visible to the next step and never to itself:
//
//	auth := pipeline.Middleware2(pipeline.RequestParam(), pipeline.CommandsParam(),
//		func(req *httpwire.Request, cmds *pipeline.Commands) *httpwire.Response {
//			token, ok := req.HeaderValue("Authorization")
//			if !ok {
//				return httpwire.NewResponse().WithStatus(httpwire.CustomStatus("401 Unauthorized"))
//			}
//			pipeline.AddData(cmds, User{Token: token})
//			return nil
//		})
//
//	show := pipeline.Controller1(pipeline.Data[User](), func(u User) any {
//		return u
//	})
//
//	p := pipeline.New(show, auth)
//
// # Parameter extraction
//
// Handlers declare their dependencies as an ordered list of Param values.
// Every Param is extracted before the handler body runs. A Param that cannot
// produce its value is a wiring defect: the pipeline panics with an
// *ExtractError wrapping ErrMissingDependency instead of inventing a
// response. Order middleware so every declared dependency is satisfied
// before it is used.
//
// # Concurrency
//
// Handlers may capture mutable state, so a Pipeline serialises Handle calls
// by default. Pipelines whose handlers are re-entrant can opt out with
// Concurrent.
package pipeline
