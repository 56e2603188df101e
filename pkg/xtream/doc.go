// Package xtream implements a client for Xtream Codes compatible IPTV panels.
//
// The protocol is a set of query-parameter-driven HTTP GET endpoints
// authenticated with a username/password pair:
//
//	player_api.php                      - authentication + JSON catalog actions
//	panel_api.php                       - legacy panel summary (not on all servers)
//	xmltv.php                           - raw XMLTV EPG document
//	get.php                             - server-generated M3U playlist (not on all servers)
//	/live/{user}/{pass}/{id}.{ext}      - live stream delivery
//	/movie/{user}/{pass}/{id}.{ext}     - VOD delivery
//	/series/{user}/{pass}/{id}.{ext}    - series episode delivery
//
// A Client must be authenticated with Authenticate before any catalog,
// EPG, or playlist call; the auth response carries the account state and
// the allowed output formats the playlist builders depend on.
//
// The protocol has no formal contract and servers disagree on field
// types (numbers arrive as strings and vice versa), so payload types use
// tolerant decoding: see FlexInt, FlexFloat, and FlexString. A response
// that does not contain the expected JSON shape decodes to an empty
// result rather than an error.
//
// A Client is not safe for concurrent use; callers needing parallelism
// should use one Client per goroutine or serialize access externally.
package xtream
