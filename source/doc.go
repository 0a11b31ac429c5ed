// Package source extracts function declarations from program text.
//
// Only one declaration form is recognized:
//
//	const name = () => {
//	    ...
//	};
//
// Extraction is a single line-oriented pass that counts braces; it does not
// tokenize strings or comments. Nested declarations are not supported: a
// header encountered while another declaration is being captured restarts the
// capture on the new name.
package source
