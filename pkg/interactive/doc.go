/*
Package interactive provides reusable session states.

Accept asks one question with an accept and a deny control and halts on the
first answer. SimpleAccept builds an Accept from three fixed views. Pagination
browses the pages of a PageSource with wrap-around single steps and clamped
jumps.

All of them implement session.State and parse their control tokens once into
small enumerated actions; unknown tokens are ignored.
*/
package interactive
