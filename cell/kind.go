// Package cell implements the universal tagged value ("cell") that every
// other package in wyrmcore passes around: source tokens, evaluated
// results, bound words, function arguments and frame contexts are all
// cells.
package cell

// Kind is the discriminant carried in every cell's header. The numeric
// values are not meaningful outside a process — only stable for the
// lifetime of a build — but are kept small and contiguous so Kind can
// index directly into per-kind dispatch tables (typecheck masks,
// molding tables, action dispatch) the way the rest of the core does.
type Kind uint8

const (
	KindEnd Kind = iota // internal: marks the unwritable tail slot of an array
	KindNone
	KindUnset // void: result of an expression that produced nothing
	KindLogic
	KindInteger
	KindDecimal
	KindPercent
	KindMoney
	KindChar
	KindPair
	KindTuple
	KindTime
	KindDate
	KindDatatype
	KindWord
	KindSetWord
	KindGetWord
	KindLitWord
	KindRefinement
	KindIssue
	KindBinary
	KindString
	KindFile
	KindEmail
	KindURL
	KindTag
	KindBitset
	KindImage
	KindVector
	KindBlock
	KindGroup
	KindPath
	KindSetPath
	KindGetPath
	KindLitPath
	KindObject
	KindModule
	KindFrame // FRAME! — a reified or on-stack call context
	KindError
	KindFunction
	KindHandle

	kindCount
)

// NumKinds is the number of live (non-internal) discriminants.
const NumKinds = int(kindCount) - 1 // excludes KindEnd

var kindNames = [kindCount]string{
	KindEnd:        "end",
	KindNone:       "none!",
	KindUnset:      "unset!",
	KindLogic:      "logic!",
	KindInteger:    "integer!",
	KindDecimal:    "decimal!",
	KindPercent:    "percent!",
	KindMoney:      "money!",
	KindChar:       "char!",
	KindPair:       "pair!",
	KindTuple:      "tuple!",
	KindTime:       "time!",
	KindDate:       "date!",
	KindDatatype:   "datatype!",
	KindWord:       "word!",
	KindSetWord:    "set-word!",
	KindGetWord:    "get-word!",
	KindLitWord:    "lit-word!",
	KindRefinement: "refinement!",
	KindIssue:      "issue!",
	KindBinary:     "binary!",
	KindString:     "string!",
	KindFile:       "file!",
	KindEmail:      "email!",
	KindURL:        "url!",
	KindTag:        "tag!",
	KindBitset:     "bitset!",
	KindImage:      "image!",
	KindVector:     "vector!",
	KindBlock:      "block!",
	KindGroup:      "group!",
	KindPath:       "path!",
	KindSetPath:    "set-path!",
	KindGetPath:    "get-path!",
	KindLitPath:    "lit-path!",
	KindObject:     "object!",
	KindModule:     "module!",
	KindFrame:      "frame!",
	KindError:      "error!",
	KindFunction:   "function!",
	KindHandle:     "handle!",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown!"
}

// IsWord reports whether k is one of the six word-family kinds: these
// share the word payload (symbol + binding) and differ only in how the
// scanner/evaluator treat them syntactically.
func (k Kind) IsWord() bool {
	switch k {
	case KindWord, KindSetWord, KindGetWord, KindLitWord, KindRefinement, KindIssue:
		return true
	}
	return false
}

// IsArray reports whether k's payload is a series of cells (as opposed
// to a byte-wide series, or an inline scalar).
func (k Kind) IsArray() bool {
	switch k {
	case KindBlock, KindGroup, KindPath, KindSetPath, KindGetPath, KindLitPath:
		return true
	}
	return false
}

// IsPath reports whether k is one of the four path-family kinds.
func (k Kind) IsPath() bool {
	switch k {
	case KindPath, KindSetPath, KindGetPath, KindLitPath:
		return true
	}
	return false
}

// IsContext reports whether k's payload is a keylist/varlist pair.
func (k Kind) IsContext() bool {
	switch k {
	case KindObject, KindModule, KindFrame, KindError:
		return true
	}
	return false
}

// IsBytes reports whether k's payload is a byte-wide series (string,
// binary, file, etc.) rather than an arrayed one.
func (k Kind) IsBytes() bool {
	switch k {
	case KindBinary, KindString, KindFile, KindEmail, KindURL, KindTag:
		return true
	}
	return false
}
