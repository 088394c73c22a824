// Package bhosttest provides an in-memory native host for testing code built on bhost.
//
// Every native call is counted so tests can assert exactly how the bridge talks to the host:
//
//	host := bhosttest.NewHost()
//	mgr := bhost.NewManager(bhost.NewTestLogger(t))
//	require.NoError(t, mgr.Mount(host, app))
//	require.NoError(t, host.PostConfig())
//
//	req := bhosttest.NewRequest(http.MethodGet, "/hello")
//	rc := host.Handle(req)
//	require.NoError(t, req.Finish())
//	require.Equal(t, 1, req.NumEOS())
package bhosttest
