// Package stdhost implements a bhost host on top of net/http.
//
// It plays the part a native server plays in production: it owns pools, runs the configuration phases, keeps the
// hook chains and drives the output filter chain that writes to the client.
//
//	srv := stdhost.New(logs, stdhost.WithHandlerName("/app", "app-handler"))
//	if err := bhost.NewManager(logger).Mount(srv, app); err != nil {
//	    return err
//	}
//	if err := srv.PostConfig(); err != nil {
//	    return err
//	}
//	if err := srv.ChildInit(); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", srv)
//
// Requests that every handler hook declines are answered with a 404 document. Results of 400 and above for which
// nothing was written get an error document.
package stdhost
