// Package jwt decodes Synaptis access tokens into identity claims.
//
// The backend signs access tokens and verifies them on every request;
// clients only need to read the embedded claims (user id, email, name,
// expiry). Decode therefore parses the token without verifying the
// signature, mirroring the trust model of a browser client: a forged
// token would still be rejected server-side.
//
// # Usage
//
//	claims, err := jwt.Decode(accessToken)
//	if err != nil {
//		// token is malformed or carries no expiry
//	}
//	if claims.IsExpired(time.Now()) {
//		// time to refresh
//	}
//
// The backend serializer emits the user id either as a numeric "user_id"
// claim or as the standard "sub" claim depending on the endpoint; Decode
// normalizes both into Claims.UserID.
package jwt
