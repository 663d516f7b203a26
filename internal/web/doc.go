// Package web serves times over HTTP.
//
// Every page request runs in its own short-lived engine session: the
// session navigates to the request path, settles its async work within
// the render timeout, renders, and is closed. Form posts deliver a UI
// event to the page and redirect to wherever the session ended up.
//
// A few paths are reserved for the server itself and never reach the
// route table: /static/*, /metrics, /feed.xml and /api/posts.
package web
