// Package api is the REST client of the Relate15 backend.
//
// # Overview
//
// Client wraps net/http with the backend's conventions:
//
//  1. Every authenticated request carries "Authorization: Bearer <token>"
//     read from the credentials.Store.
//  2. A response that carries a fresh bearer token in its Authorization
//     header overwrites the stored credential.
//  3. A 401 on an authenticated request clears the credential and sends the
//     user back to the login view through the Navigator. The request is not
//     retried.
//
// Paths are centralized in Endpoints.
//
// # Error Handling
//
// Callers match errors with errors.Is / errors.As:
//   - ErrUnauthorized: the server rejected the credential;
//   - ErrUnavailable: the server could not be reached;
//   - *StatusError: any other non-2xx answer, with the server's message.
package api
