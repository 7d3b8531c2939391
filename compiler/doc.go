/*

Process of building

Shader Text ->
	lex ->
Words (lex) ->
	front (match declarations, split bodies, parse expressions) ->
Intermediate Representation (ir) ->
	format ->
Shader Text

Each if and while body becomes a pseudo-function.
Statements are postfix operation streams read bottom to top.

*/
package compiler
