package symbol

// wellKnownNames are interned eagerly by NewTable so the object model and
// compiler can reference their ids as package-level constants instead of
// re-interning on every access.
var wellKnownNames = []string{
	"length",
	"prototype",
	"constructor",
	"__proto__",
	"message",
	"name",
	"arguments",
	"this",
	"callee",
	"valueOf",
	"toString",
}

// Well-known ids, valid for any Table constructed via NewTable (the order
// above is interning order, which is also insertion order, so these are
// stable as long as wellKnownNames is only appended to).
const (
	Length uint32 = iota
	Prototype
	Constructor
	ProtoSetter
	Message
	Name
	Arguments
	This
	Callee
	ValueOf
	ToString
)

// LengthSymbol etc. are convenience wrappers returning the interned Symbol
// directly, for call sites that don't hold a *Table handy for Intern.
func LengthSymbol() Symbol      { return Interned(Length) }
func PrototypeSymbol() Symbol   { return Interned(Prototype) }
func ConstructorSymbol() Symbol { return Interned(Constructor) }
func MessageSymbol() Symbol     { return Interned(Message) }
func NameSymbol() Symbol        { return Interned(Name) }
func ArgumentsSymbol() Symbol   { return Interned(Arguments) }
func CalleeSymbol() Symbol      { return Interned(Callee) }
func ValueOfSymbol() Symbol     { return Interned(ValueOf) }
func ToStringSymbol() Symbol    { return Interned(ToString) }
