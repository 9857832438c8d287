// Package camera holds the free-flying observer shared by the front-ends:
// keyboard state, per-frame input snapshots, and a controller that turns
// them into a view-projection matrix.
//
// World space is z-up. At zero azimuth and elevation the camera looks down
// +x with +y to its left.
package camera
