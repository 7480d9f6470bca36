package chroma

import (
	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/fwojciec/docblocks"
)

// KindOf maps a chroma token type to the token kinds used for segmentation.
//
// Hashbangs, preprocessor lines and special comments are not comments for
// this purpose: "#include" must never open a text block.
func KindOf(tt chromalib.TokenType) docblocks.TokenKind {
	switch tt {
	case chromalib.CommentSingle:
		return docblocks.TokenCommentSingle
	case chromalib.CommentMultiline:
		return docblocks.TokenCommentMultiline
	case chromalib.Comment:
		return docblocks.TokenComment
	case chromalib.TextWhitespace:
		return docblocks.TokenWhitespace
	default:
		return docblocks.TokenOther
	}
}
