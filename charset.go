package termcore

// lineDrawingTable is the classical VT100 DEC special-graphics mapping:
// ASCII bytes 0x5f-0x7e (`_` through `~`) translate to box-drawing and
// symbol glyphs. Index by (b - 0x5f).
var lineDrawingTable = [32]rune{
	0x00a0, // _  blank
	0x25c6, // `  diamond
	0x2592, // a  checkerboard
	0x2409, // b  HT symbol
	0x240c, // c  FF symbol
	0x240d, // d  CR symbol
	0x240a, // e  LF symbol
	0x00b0, // f  degree
	0x00b1, // g  plus/minus
	0x2424, // h  NL symbol
	0x240b, // i  VT symbol
	0x2518, // j  bottom-right corner
	0x2510, // k  top-right corner
	0x250c, // l  top-left corner
	0x2514, // m  bottom-left corner
	0x253c, // n  crossing lines
	0x23ba, // o  scan line 1
	0x23bb, // p  scan line 3
	0x2500, // q  horizontal line
	0x23bc, // r  scan line 7
	0x23bd, // s  scan line 9
	0x251c, // t  left T
	0x2524, // u  right T
	0x2534, // v  bottom T
	0x252c, // w  top T
	0x2502, // x  vertical line
	0x2264, // y  less-than-or-equal
	0x2265, // z  greater-than-or-equal
	0x03c0, // {  pi
	0x2260, // |  not equal
	0x00a3, // }  pound sterling
	0x00b7, // ~  middle dot
}

// translateCharset maps r through the given charset. CharsetLineDrawing
// applies the VT100 special-graphics table to bytes in [0x5f,0x7e];
// CharsetUKPound remaps '#' to the pound sign; CharsetASCII is identity.
func translateCharset(cs Charset, r rune) rune {
	switch cs {
	case CharsetLineDrawing:
		if r >= 0x5f && r <= 0x7e {
			return lineDrawingTable[r-0x5f]
		}
		return r
	case CharsetUKPound:
		if r == '#' {
			return 0xa3
		}
		return r
	default:
		return r
	}
}
