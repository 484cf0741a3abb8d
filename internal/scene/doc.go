// Package scene holds the nodes of one evaluation graph and the links
// between their pins.
//
// A link feeds an output pin of one node into an input pin of another. The
// input stops being a plain value and takes the value of its source on
// every read. An input declared OneOrMore accepts several links and follows
// whichever source changed most recently; ExactlyOne inputs accept a single
// link.
package scene
