// Package classify holds the ordered statement rules applied to each line.
//
// The table is deliberately small. A line may fire several rules; they are
// reported in table order:
//
//	call          name();            (name must be declared)
//	console.log   console.log('lit')
//	setTimeout    any line mentioning setTimeout
//	Promise.then  any line mentioning Promise.resolve
//
// Anything else, including non-literal log arguments and control flow, is not
// recognized.
package classify
