// Package session manages the client-side authentication session for the
// Synaptis backend: the access/refresh token pair, the identity claims
// decoded from the access token, and the silent-refresh lifecycle.
//
// # Core Components
//
//   - Manager: owns the session state machine and the refresh protocol
//   - Store: interface for durable token persistence (file, redis, memory)
//   - API: interface for the backend's login/register/refresh endpoints
//   - TokenPair: the persisted credential set
//
// # State Machine
//
// A manager starts in Initializing and settles into Unauthenticated or
// Authenticated during Init:
//
//	Initializing ──Init──▶ Unauthenticated ◀──logout/refresh-failure── Authenticated
//	                            │                                          ▲
//	                            └────────────login/register───────────────┘
//
// There are no terminal states; after logout, login is always possible.
//
// # Basic Usage
//
//	store, err := tokenstore.NewFile(path)
//	if err != nil {
//		log.Fatal(err)
//	}
//	api, err := authapi.New("https://api.example.com")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := session.New(
//		session.WithStore(store),
//		session.WithAPI(api),
//		session.WithConfig(
//			session.WithRefreshInterval(4*time.Minute),
//		),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Restore a persisted session before serving consumers.
//	if err := manager.Init(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	// Proactive background refresh, errgroup-style.
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(manager.Run(ctx))
//
//	if err := manager.Login(ctx, email, password); err != nil {
//		// show the classified failure to the user
//	}
//	if claims, ok := manager.Claims(); ok {
//		fmt.Println("hello,", claims.Email)
//	}
//
// # Token Refresh
//
// Refresh has two triggers. The reactive path runs when an authenticated
// request receives a 401 (see core/httpclient); the proactive path is the
// Start loop checking expiry on a fixed interval. Both funnel into one
// shared procedure guarded by a single-flight group: at most one refresh
// call is in flight at any time, and concurrent callers share its result.
// Every attempt is fenced by a generation counter so a refresh resolving
// after logout cannot resurrect the session.
//
// A failed refresh is irrecoverable: the store is cleared and the state
// forced to Unauthenticated. Background failures are never returned to
// callers — consumers observe the state change instead.
//
// # Error Handling
//
// Login and Register surface classified errors from core/authapi
// (ErrInvalidCredentials, ValidationError, ErrNetworkUnavailable,
// ErrUnknownFailure) for the caller to display. Logout and Claims never
// fail. Store write failures degrade durability only and are logged.
package session
