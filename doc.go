/*
Package tacc is a front-end compiler toolbox for a small imperative,
C-like source language.

Given textual source it produces a linear three-address intermediate
representation, organized into per-function basic-block graphs suitable
for later code generation. The module is split into the following
packages:

■ grammar: loads a plain-text BNF-like grammar into rules, terminals
and non-terminals.

■ lr: constructs the canonical LR(1) automaton for a grammar and emits
ACTION/GOTO tables, with a JSON-backed cache.

■ token: the token stream contract between a lexer and the parser, plus
a DFA-backed lexer for this module's source language.

■ parser: the shift-reduce parsing loop and the parse-tree node model.

■ symtable: the symbol-table query contract consumed by the IR builder.

■ counter: a per-compilation registry of named, monotonically increasing
counters, used for fresh temporaries and fresh labels.

■ ir: walks a parse tree and emits three-address instructions, carved
into basic blocks, with forward control-flow targets resolved by
reserving their label names ahead of the jumps that reference them.

The base package contains data types shared by all of the above.
*/
package tacc
