/*
Package semtok models the LSP semantic token wire format.

Encoding Overview:
-----------------
A token stream is a flat []uint32 of five-integer records, each position
encoded relative to the previous token's start:

	[deltaLine, deltaChar, length, kindIndex, modifierBits] x N

	     Stream                  Legend
	       |                       |
	       v                       v
	 +-----------+          +------------+
	 |  Decode   | <------- | kind names |
	 +-----------+          | mod names  |
	       |                +------------+
	       v
	 +-----------+
	 |  Tokens   |  absolute single-line ranges,
	 +-----------+  named kinds, modifier sets

Decode expands the stream into absolute tokens; Encode is its inverse and is
what a token producer uses before shipping tokens over the wire. The two are
round-trip symmetric for position-sorted input.
*/
package semtok
