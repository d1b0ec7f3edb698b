// Package router exposes veil boundaries over HTTP with chi.
//
// A Route names its positional arguments with binders. Path and Query
// binders may carry a domain, in which case the bound text is decoded
// before the handler runs. Body binders unmarshal and decode the request
// body through a veil.Processor. Every result is walked and encoded by the
// interceptor, then marshaled with the codec the client accepts.
//
//	srv := router.New(veil.NewInterceptor(obf), json.New(), yaml.New())
//	srv.MustHandle(router.Route{
//		Method:  http.MethodGet,
//		Pattern: "/students/{id}",
//		Name:    "getStudent",
//		Args:    []router.Binder{router.Path("id", veil.Student)},
//		Handler: getStudent,
//	})
package router
