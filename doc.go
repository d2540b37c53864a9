/*
Nereidd is a full-node nereid implementation written in Go.

The default options are sane for most users. This means nereidd will work
'out of the box' for most users. However, there are also a wide variety of
flags that can be used to control it.

Usage:

	nereidd [OPTIONS]

For an up-to-date help message:

	nereidd --help

The long form of all option flags (except -C) can be specified in a
configuration file that is automatically parsed when nereidd starts up. By
default, the configuration file is located at ~/.nereidd/nereidd.conf on
POSIX-style operating systems and %LOCALAPPDATA%\nereidd\nereidd.conf on
Windows. The -C (--configfile) flag can be used to override this location.
*/
package main
