/*
Package server implements msgpack IPC for tag assignment sessions.

Editors talk to the server over stdin/stdout. Every message is a single
msgpack map carrying an "id" echoed in the response and an "action".

# Sessions

A session holds one document, its visible range and caret, and the tagger
state for the query being typed. Open one with the document text:

	{"id": "1", "action": "open", "text": "...", "vs": 0, "ve": 2400, "caret": 0}

and receive its id:

	{"id": "1", "sid": "0190c2...", "st": "ok"}

# Queries

Send the whole query after every keystroke. Matches may be supplied by the
editor's own search ("m") or computed by the server ("search": true):

	{"id": "2", "action": "query", "sid": "0190c2...", "q": "e", "search": true}

The response lists the markers to draw and, once the query completes a tag,
the offset jumped to ("j", -1 when no jump happened):

	{"id": "2", "sid": "0190c2...", "mk": [{"q": "e", "t": "a", "o": 0}], "full": true, "j": -1, "t": 41}

After a jump the session is reset and the next query starts fresh.

# Other actions

	{"id": "3", "action": "view", "sid": "...", "vs": 2400, "ve": 4800, "caret": 2400}
	{"id": "4", "action": "nearest", "sid": "..."}
	{"id": "5", "action": "reset", "sid": "..."}
	{"id": "6", "action": "close", "sid": "..."}
	{"id": "7", "action": "stats"}

"view" answers whether the newly exposed range holds stored matches
("rescan"), so the editor knows whether to search again. Failures come back
as {"id", "e", "c"} and never end the session.
*/
package server

// Request is the union of every action's fields.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action"`
	Session string `msgpack:"sid,omitempty"`

	Text      string `msgpack:"text,omitempty"`
	ViewStart int    `msgpack:"vs,omitempty"`
	ViewEnd   int    `msgpack:"ve,omitempty"`
	Caret     int    `msgpack:"caret,omitempty"`

	Query   string `msgpack:"q,omitempty"`
	Regex   bool   `msgpack:"rx,omitempty"`
	Search  bool   `msgpack:"search,omitempty"`
	Matches []int  `msgpack:"m,omitempty"`
}

// Marker is one tag to draw.
type Marker struct {
	Query  string `msgpack:"q"`
	Tag    string `msgpack:"t"`
	Offset int    `msgpack:"o"`
}

// QueryResponse answers a query update.
type QueryResponse struct {
	ID        string   `msgpack:"id"`
	Session   string   `msgpack:"sid"`
	Markers   []Marker `msgpack:"mk"`
	Full      bool     `msgpack:"full"`
	Jump      int      `msgpack:"j"`
	Scrolled  bool     `msgpack:"sc,omitempty"`
	Discarded int      `msgpack:"d,omitempty"`
	TimeTaken int64    `msgpack:"t"`
}

// StatusResponse answers open, view, nearest, reset and close.
type StatusResponse struct {
	ID      string `msgpack:"id"`
	Session string `msgpack:"sid,omitempty"`
	Status  string `msgpack:"st"`
	Rescan  bool   `msgpack:"rescan,omitempty"`
	Jump    int    `msgpack:"j,omitempty"`
	Caret   int    `msgpack:"caret,omitempty"`
}

// MetricSample is one metric value in a stats response.
type MetricSample struct {
	Name  string  `msgpack:"n"`
	Value float64 `msgpack:"v"`
}

// StatsResponse lists the server's metrics.
type StatsResponse struct {
	ID       string         `msgpack:"id"`
	Sessions int            `msgpack:"sessions"`
	Metrics  []MetricSample `msgpack:"metrics"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
