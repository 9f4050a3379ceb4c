// Package httpclient provides the authenticated HTTP transport for
// Synaptis API calls: every outgoing request carries
// "Authorization: Bearer <access>" while a session is active, and a 401
// response triggers exactly one silent refresh followed by one retry.
//
//	client, err := httpclient.NewClient(manager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	resp, err := client.Get(apiBase + "/patients")
//
// The retry budget travels in the request context rather than as a flag
// mutated on the request, so stacked transports cannot loop: a request
// chain refreshes at most once no matter how it is decorated.
//
// Outcome matrix for a 401:
//
//   - refresh fails: the session has been ended by the manager; the
//     original 401 is returned
//   - refresh succeeds, retry passes: the caller sees the retry response
//   - refresh succeeds, retry 401s again: the 401 is returned and the
//     session stays authenticated (an authorization problem, not a
//     session problem)
//
// Requests also get an X-Request-ID (UUID) when the caller did not set
// one, which the backend echoes into its logs.
package httpclient
