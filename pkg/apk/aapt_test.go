package apk

import (
	"reflect"
	"testing"
)

const badgingFixture = `package: name='com.example.app' versionCode='42' versionName='2.1.0'
sdkVersion:'21'
targetSdkVersion:'33'
maxSdkVersion:'34'
uses-permission: name='android.permission.INTERNET'
uses-permission: name='android.permission.ACCESS_NETWORK_STATE'
application-label:'Example App'
application: label='Example App' icon='res/mipmap-hdpi/ic_launcher.png'
launchable-activity: name='com.example.app.HomeActivity'  label='Home' icon=''
`

const xmltreeFixture = `N: android=http://schemas.android.com/apk/res/android
  E: manifest (line=2)
    A: android:versionCode(0x0101021b)=(type 0x10)0x2a
    A: package="com.example.app" (Raw: "com.example.app")
    E: application (line=7)
      A: android:label(0x01010001)="Example App" (Raw: "Example App")
      E: activity (line=8)
        A: android:name(0x01010003)="com.example.app.HomeActivity" (Raw: "com.example.app.HomeActivity")
        E: intent-filter (line=9)
          E: action (line=10)
            A: android:name(0x01010003)="android.intent.action.MAIN" (Raw: "android.intent.action.MAIN")
      E: service (line=14)
        A: android:name(0x01010003)="com.example.app.SyncService" (Raw: "com.example.app.SyncService")
      E: receiver (line=17)
        A: android:exported(0x01010010)=(type 0x12)0x0
        A: android:name(0x01010003)="com.example.app.BootReceiver" (Raw: "com.example.app.BootReceiver")
`

func TestAppName(t *testing.T) {
	if got := AppName(badgingFixture); got != "Example App" {
		t.Errorf("AppName = %q", got)
	}

	launchOnly := "launchable-activity: name='a.b.C'  label='Fallback' icon=''\n"
	if got := AppName(launchOnly); got != "Fallback" {
		t.Errorf("AppName fallback = %q", got)
	}

	if got := AppName("package: name='x'\n"); got != "" {
		t.Errorf("AppName empty = %q", got)
	}
}

func TestParseBadging(t *testing.T) {
	man := ParseBadging(badgingFixture)

	if man.Package != "com.example.app" {
		t.Errorf("package = %q", man.Package)
	}
	if man.Version.Code == nil || *man.Version.Code != 42 {
		t.Errorf("version.code = %v", man.Version.Code)
	}
	if man.Version.Name != "2.1.0" {
		t.Errorf("version.name = %q", man.Version.Name)
	}
	if man.SDK == nil || man.SDK.Min != "21" || man.SDK.Target != "33" || man.SDK.Max != "34" {
		t.Errorf("sdk = %+v", man.SDK)
	}
	want := []string{"android.permission.ACCESS_NETWORK_STATE", "android.permission.INTERNET"}
	if !reflect.DeepEqual(man.Permissions, want) {
		t.Errorf("permissions = %v", man.Permissions)
	}
}

func TestParseBadgingSDKDefaults(t *testing.T) {
	man := ParseBadging("package: name='com.example.app'\n")
	if man.SDK.Min != "1" || man.SDK.Target != "1" || man.SDK.Max != "" {
		t.Errorf("sdk = %+v", man.SDK)
	}
}

func TestParseXMLTreeComponents(t *testing.T) {
	activities, services, receivers := ParseXMLTreeComponents(xmltreeFixture)

	if len(activities) != 1 || activities[0].Name != "com.example.app.HomeActivity" {
		t.Errorf("activities = %v", activities)
	}
	if len(services) != 1 || services[0].Name != "com.example.app.SyncService" {
		t.Errorf("services = %v", services)
	}
	if len(receivers) != 1 || receivers[0].Name != "com.example.app.BootReceiver" {
		t.Errorf("receivers = %v", receivers)
	}
}
