// Package scoreboard turns raw OCR text from a scoreboard screenshot into
// per-player records.
//
// OCR output is never well formed: columns drift, tokens merge or vanish,
// and decorative rows show up as text. The parser therefore anchors each line
// on its first numeric token. Everything before the anchor is the player
// name, up to three numeric tokens from the anchor onward are the
// kill/death/assist triplet, and the last token of the line is the credits
// value.
//
// Lines that cannot be attributed to a player are dropped silently. Parsing
// never returns an error; a single bad line must not cost the rest of the
// board.
//
// # Known Limitations
//
// Credits are always the last token, independent of the KDA scan. On a short
// line such as "Jett 3 1" the token "1" is read both as a KDA value and as the
// credits. This double read is kept by default; Options.Strict drops such
// lines instead.
//
// A name made only of digits, or whose first token looks numeric, is split at
// the wrong place. Anchor-based tokenization cannot tell these apart without
// fixed column alignment.
//
// A token is numeric when it parses as a decimal floating-point number after
// commas are removed. That includes "1e3", "inf" and "nan", so a player named
// "Inf" is taken as the start of the KDA. Hexadecimal forms like "0x1p3" are
// rejected.
package scoreboard
