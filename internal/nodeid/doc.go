// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for parameter paths
within a scene.

A path names a node, then zero or more nested groups, then a parameter or
group. Two spellings are accepted and are equivalent:

	camera.Resolution.Width
	camera > Resolution > Width

The canonical form, returned by String, is the dotted one. Segment names may
contain letters, digits, underscores, hyphens and inner spaces.
*/
package nodeid
