package lang

// preludeLines are compiled silently at State construction time, giving
// every session a small standard library built entirely out of
// primitives and syntax forms already defined above. Each line is run
// through the same Interpreter a user's own input would be, in this
// exact order: later entries depend on earlier ones (`^` on `*_under`,
// `>=`/`>` on `<`/`<=`, and so on).
var preludeLines = []string{
	`: - ( a b -- a-b ) not inc + ;`,
	`: neg ( a -- -a ) 0 swap - ;`,
	`: *_under ( a b -- a a*b ) swap dup rot * ;`,
	`: ^ ( a b -- a^b ) 1 swap rep *_under swap drop ;`,
	`: != ( a b -- a!=b ) = not ;`,
	`: <= ( a b -- a<=b ) dup rot dup rot < unrot = or ;`,
	`: >= ( a b -- a>=b ) < not ;`,
	`: > ( a b -- a>b ) <= not ;`,
	`: truthy? ( a -- a!=false ) false != ;`,
	`: show_top ( a -- a ) dup print ;`,
	`: clear ( ... -- ) stack_len 0 = ? ret drop rec ;`,
}
