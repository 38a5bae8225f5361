// ============================================================================
// skymodel - Sky model text format tools
// ============================================================================
//
// Package:     skymodel
// Description: Brace-structured sky model text parser and serializer
// License:     MIT
// ============================================================================

/*
Package skymodel parses and renders the brace-delimited sky model text
format that describes radio sources and their components:

	skymodel fileformat 1.1
	source {
	  name "J1234-4321"
	  component {
	    type gaussian
	    position 12h34m56.7s -43d21m00.0s
	    shape 1 0.5 90
	    sed {
	      frequency 150 MHz
	      fluxdensity Jy 2.3 0 0 0
	      spectral-index { -0.7 0 }
	    }
	  }
	}

Older files describe the spectrum with one or more measurement blocks and an
optional spectral-index block instead of sed:

	measurement {
	  frequency 150 MHz
	  fluxdensity Jy 2.3 0 0 0
	}
	spectral-index {
	  alpha -0.7
	  beta 0
	}

Both spellings resolve to the same SED. Rendering always writes the sed form.

Parsing is line oriented. Each line is trimmed, split into a keyword and a
value at the first run of whitespace, and dispatched on keyword prefix, so
"spectral" and "spectral-index" select the same handler. Unknown keywords
are logged and skipped together with any block they open.

A Source can also be flattened into one catalogue Row per component with the
fixed columns Name, ra, dec, ra_str, dec_str, a, b, pa, freq, peak_flux and
alpha. Only the primary SED flux survives flattening.
*/
package skymodel
