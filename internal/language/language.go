// Package language holds the fixed table of languages the editor can run.
package language

// Profile describes one execution target of the remote runner.
// ID is the Judge0 language_id; Mode is the editor syntax mode.
type Profile struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Mode   string `json:"ext"`
	Sample string `json:"sample"`
}

// DefaultID is the language selected when a workspace starts (Python 3).
const DefaultID = 71

var profiles = []Profile{
	{
		ID:     63,
		Name:   "JavaScript",
		Mode:   "javascript",
		Sample: `console.log("Hello, world!");`,
	},
	{
		ID:   71,
		Name: "Python",
		Mode: "python",
		Sample: `def main():
    print("Hello, world!")

if __name__ == "__main__":
    main()`,
	},
	{
		ID:   62,
		Name: "Java",
		Mode: "java",
		Sample: `class Main {
    public static void main(String[] args) {
        System.out.println("Hello, world!");
    }
}`,
	},
	{
		ID:   50,
		Name: "C",
		Mode: "c",
		Sample: `#include <stdio.h>

int main() {
    printf("Hello, world!\n");
    return 0;
}`,
	},
	{
		ID:   54,
		Name: "C++",
		Mode: "cpp",
		Sample: `#include <iostream>
using namespace std;

int main() {
    cout << "Hello, world!\n";
    return 0;
}`,
	},
}

// All returns the supported profiles in display order.
// The returned slice is a copy; callers may not mutate the table.
func All() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// Lookup returns the profile with the given Judge0 language id.
func Lookup(id int) (Profile, bool) {
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Default returns the startup profile.
func Default() Profile {
	p, _ := Lookup(DefaultID)
	return p
}
