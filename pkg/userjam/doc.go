// Package userjam is a client for the Userjam event tracking API.
//
// A Client authenticates with a bearer key and reports "identify" and "track"
// payloads as asynchronous HTTP POST requests. Every call returns a Future
// immediately; the request itself runs on its own goroutine.
//
//	client := userjam.New()
//	client.Auth(os.Getenv("USERJAM_KEY"))
//
//	future, err := client.Track("user_12345", "Button Clicked", userjam.Properties{
//		"button_id": "signup_header",
//	})
//	if err != nil {
//		return err // the client has no key
//	}
//
//	resp, err := future.Wait(ctx)
//
// Non-2xx responses resolve the Future successfully; check Response.IsSuccess.
package userjam
