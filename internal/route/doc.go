// Package route maps URL paths to pages and provides the navigation
// capability handed to the components the table selects.
//
// Resolution rules, evaluated in priority order (first match wins):
//
//  1. exact "/"          -> home
//  2. prefix "/about"    -> about
//  3. prefix "/contact"  -> contact
//  4. fallback "/:post_id" -> post, post_id = first path segment
//
// Prefix matching is segment aware: "/about/team" matches about, while
// "/aboutus" falls through to the post route. Static patterns compare
// case-insensitively ("/About" is about); captured parameters keep their
// case. Resolve is total; every
// path yields exactly one Match.
package route
