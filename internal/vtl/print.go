package vtl

import (
	"fmt"
	"strconv"
	"strings"
)

// indentStep is the indentation added for each nested block level.
const indentStep = "  "

// Print renders an expression tree to template text. Rendering is
// deterministic: identical trees produce identical bytes. Compound blocks
// indent their bodies one level deeper than the enclosing block and
// terminate with #end.
func Print(expr Expression) string {
	return printExpr(expr, "")
}

// printExpr renders a node in statement position, prefixing every line
// with the current indent.
func printExpr(expr Expression, indent string) string {
	switch node := expr.(type) {
	case IfNode:
		return printIf(node, indent)
	case IfElseNode:
		return printIfElse(node, indent)
	case ForEachNode:
		return printForEach(node, indent)
	case SetNode:
		return indent + printSet(node, indent)
	case CompoundExpressionNode:
		parts := make([]string, 0, len(node.Expressions))
		for _, child := range node.Expressions {
			parts = append(parts, printExpr(child, indent))
		}
		return strings.Join(parts, "\n")
	case CommentNode:
		if node.Closing {
			return indent + "** " + node.Text + " ##"
		}
		return indent + "## " + node.Text + " **"
	case RawNode:
		return indent + strings.ReplaceAll(node.Text, "\n", "\n"+indent)
	case NewlineNode:
		return ""
	case ObjectNode:
		return indent + printObject(node, indent)
	default:
		return indent + printInline(expr, indent)
	}
}

// printInline renders a node embedded in an already started line. The
// indent is used only by values that span lines, such as object literals.
func printInline(expr Expression, indent string) string {
	switch node := expr.(type) {
	case StringNode:
		return `"` + node.Value + `"`
	case IntNode:
		return strconv.Itoa(node.Value)
	case FloatNode:
		return strconv.FormatFloat(node.Value, 'g', -1, 64)
	case BooleanNode:
		return strconv.FormatBool(node.Value)
	case NullNode:
		return "null"
	case ReferenceNode:
		return "$" + node.Value
	case QuietReferenceNode:
		return "$util.qr($" + node.Value + ")"
	case ObjectNode:
		return printObject(node, indent)
	case ListNode:
		items := make([]string, 0, len(node.Items))
		for _, item := range node.Items {
			items = append(items, printInline(item, indent))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case AndNode:
		return printJoined(node.Expressions, " && ", indent)
	case OrNode:
		return printJoined(node.Expressions, " || ", indent)
	case NotNode:
		return "!" + printInline(node.Expr, indent)
	case EqualsNode:
		return printInline(node.Left, indent) + " == " + printInline(node.Right, indent)
	case NotEqualsNode:
		return printInline(node.Left, indent) + " != " + printInline(node.Right, indent)
	case ParensNode:
		return "(" + printInline(node.Expr, indent) + ")"
	case SetNode:
		return printSet(node, indent)
	case IfNode:
		return "#if( " + printInline(node.Predicate, indent) + " ) " +
			printInline(node.Expr, indent) + " #end"
	case IfElseNode:
		return "#if( " + printInline(node.Predicate, indent) + " ) " +
			printInline(node.IfExpr, indent) + " #else " +
			printInline(node.ElseExpr, indent) + " #end"
	case RawNode:
		return node.Text
	case CommentNode, NewlineNode, ForEachNode, CompoundExpressionNode:
		// Line-oriented nodes have no inline form; render in statement
		// position without the leading indent.
		return strings.TrimPrefix(printExpr(expr, indent), indent)
	default:
		return fmt.Sprintf("%v", expr)
	}
}

func printJoined(expressions []Expression, separator, indent string) string {
	parts := make([]string, 0, len(expressions))
	for _, expr := range expressions {
		parts = append(parts, printInline(expr, indent))
	}
	return "(" + strings.Join(parts, separator) + ")"
}

func printSet(node SetNode, indent string) string {
	return "#set( $" + node.Key.Value + " = " + printInline(node.Value, indent) + " )"
}

func printIf(node IfNode, indent string) string {
	if node.Inline {
		return indent + "#if( " + printInline(node.Predicate, indent) + " ) " +
			printInline(node.Expr, indent) + " #end"
	}

	return indent + "#if( " + printInline(node.Predicate, indent) + " )\n" +
		printExpr(node.Expr, indent+indentStep) + "\n" +
		indent + "#end"
}

func printIfElse(node IfElseNode, indent string) string {
	if node.Inline {
		return indent + "#if( " + printInline(node.Predicate, indent) + " ) " +
			printInline(node.IfExpr, indent) + " #else " +
			printInline(node.ElseExpr, indent) + " #end"
	}

	return indent + "#if( " + printInline(node.Predicate, indent) + " )\n" +
		printExpr(node.IfExpr, indent+indentStep) + "\n" +
		indent + "#else\n" +
		printExpr(node.ElseExpr, indent+indentStep) + "\n" +
		indent + "#end"
}

func printForEach(node ForEachNode, indent string) string {
	header := indent + "#foreach( $" + node.Key.Value + " in " +
		printInline(node.Collection, indent) + " )"

	lines := make([]string, 0, len(node.Expressions)+2)
	lines = append(lines, header)
	for _, child := range node.Expressions {
		lines = append(lines, printExpr(child, indent+indentStep))
	}
	lines = append(lines, indent+"#end")

	return strings.Join(lines, "\n")
}

func printObject(node ObjectNode, indent string) string {
	if len(node.Entries) == 0 {
		return "{}"
	}

	entries := make([]string, 0, len(node.Entries))
	for _, entry := range node.Entries {
		entries = append(entries,
			indent+indentStep+`"`+entry.Key+`": `+printInline(entry.Value, indent+indentStep))
	}

	return "{\n" + strings.Join(entries, ",\n") + "\n" + indent + "}"
}
